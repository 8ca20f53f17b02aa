// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// windowsReservedNames are device names Windows reserves regardless of extension.
var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
	"LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName reports whether name (with or without an extension)
// is a reserved device name on Windows. The check is case-insensitive.
func IsWindowsReservedName(name string) bool {
	stem := strings.ToUpper(name)
	if idx := strings.IndexByte(stem, '.'); idx != -1 {
		stem = stem[:idx]
	}
	_, reserved := windowsReservedNames[strings.TrimSpace(stem)]
	return reserved
}
