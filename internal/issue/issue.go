// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	BundleRootNotFoundId Id = iota + 1
	ArchiveUnreadableId
	ArchiveCorruptId
	PathEscapeId
	InvalidEntryPathId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with the given glamour style
// ("dark", "light", "notty", "auto", or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	bundleRootNotFoundIssue = &Issue{
		id: BundleRootNotFoundId,
		mdMsg: `
# Bundle source not found!

The path given as a bundle source does not exist or could not be resolved.

## Things you can try:
- Check the path for typos
- Make sure every symlink along the path points somewhere
- Pass a directory for a directory source, or a tar file for an archive source`,
	}

	archiveUnreadableIssue = &Issue{
		id: ArchiveUnreadableId,
		mdMsg: `
# Bundle archive could not be read!

The archive exists but reading it failed before any entry was produced.

## Things you can try:
- Check the archive's file permissions
- Verify the file is not still being written`,
	}

	archiveCorruptIssue = &Issue{
		id: ArchiveCorruptId,
		mdMsg: `
# Bundle archive is corrupt!

The tar framing could not be decoded. Entries after the damaged header are
unreachable, so the listing stopped there.

## Things you can try:
- Re-download or re-create the archive
- Test it with:
~~~
$ tar -tf bundle.tar > /dev/null
~~~`,
		extLinks: []HttpLink{"https://www.gnu.org/software/tar/manual/html_node/Standard.html"},
	}

	pathEscapeIssue = &Issue{
		id: PathEscapeId,
		mdMsg: `
# File resolves outside the bundle!

A file in the bundle directory is a symlink whose target lies outside the
bundle root. It was not opened.

## Things you can try:
- Replace the symlink with a copy of the file
- Point the symlink at a file inside the bundle`,
	}

	invalidEntryPathIssue = &Issue{
		id: InvalidEntryPathId,
		mdMsg: `
# Entry path could not be decoded!

Bundle paths must be valid UTF-8. The entry was skipped and the listing went on.

## Things you can try:
- Rename the file using UTF-8 characters only
- Re-create the archive on a system with a UTF-8 locale`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be parsed or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ bundlekit config show
~~~
- Check the file for CUE syntax errors`,
	}

	issues = map[Id]*Issue{
		bundleRootNotFoundIssue.Id(): bundleRootNotFoundIssue,
		archiveUnreadableIssue.Id():  archiveUnreadableIssue,
		archiveCorruptIssue.Id():     archiveCorruptIssue,
		pathEscapeIssue.Id():         pathEscapeIssue,
		invalidEntryPathIssue.Id():   invalidEntryPathIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
