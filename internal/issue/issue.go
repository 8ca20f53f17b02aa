// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DescriptorNotFoundId Id = iota + 1
	ConfigLoadFailedId
	InvalidPluginNameId
	InvalidFormatId
	OutputWriteFailedId
	WatchFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue's Markdown with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# Plugin descriptor not found

The version constants were generated as **0.0.0** because no descriptor
exists at the expected location.

The descriptor is looked up two directories above the build module:

~~~
Plugins/<Plugin>/<Plugin>.uplugin          <- descriptor
Plugins/<Plugin>/Source/<Module>/          <- --module-dir
~~~

## Things you can try:
- Pass the build module directory, not the plugin root:
~~~
$ plugver generate --module-dir Plugins/Charon/Source/Charon --plugin Charon
~~~
- Check that --plugin matches the descriptor file name (case-sensitive on Linux)
- Run 'plugver show' to see which path was probed`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the file that was used:
~~~
$ plugver config path
~~~
- Recreate a default configuration:
~~~
$ plugver config init
~~~
- Check that 'format' is one of: defines, header, flags, env, json, yaml, toml, markdown
- Check that 'prefix' is a valid C identifier`,
	}

	invalidPluginNameIssue = &Issue{
		id: InvalidPluginNameId,
		mdMsg: `
# Invalid plugin name

The plugin name is the descriptor file stem, e.g. **Charon** for
'Charon.uplugin'. It must be non-empty and must not contain path separators.

## Things you can try:
- Set it explicitly: 'plugver generate --plugin Charon'
- Or set 'plugin: "Charon"' in plugver.cue`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown output format

| Format | Output |
|---|---|
| defines | NAME=VALUE lines for build definition lists |
| header | C/C++ header with #define directives |
| flags | -D compiler arguments, quoted where the shell needs it |
| env | shell export statements |
| json, yaml, toml | structured documents |
| markdown | human-readable summary |`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write generated definitions

## Things you can try:
- Check that the output directory is writable
- Check that the output path is not an existing directory
- Omit --output to print the definitions to stdout`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# File watching stopped

The watcher could not monitor the descriptor directory.

## Things you can try:
- On Linux, raise the inotify watch limit:
~~~
$ sysctl fs.inotify.max_user_watches=524288
~~~
- Run 'plugver generate' without --watch from your build instead`,
	}

	issues = map[Id]*Issue{
		descriptorNotFoundIssue.Id(): descriptorNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidPluginNameIssue.Id():  invalidPluginNameIssue,
		invalidFormatIssue.Id():      invalidFormatIssue,
		outputWriteFailedIssue.Id():  outputWriteFailedIssue,
		watchFailedIssue.Id():        watchFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
