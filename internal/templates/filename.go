package templates

import "strings"

// fileNameReplaceMap substitutes characters that cloud drives (OneDrive,
// Google Drive) and common filesystems reject or mangle. The substitutions
// are idempotent: cleaning an already-clean name is a no-op.
var fileNameReplaceMap = map[rune]string{
	'%':  " percent",
	':':  "",
	'/':  "_",
	',':  "",
	'\\': "_",
	'[':  "(",
	']':  ")",
	'<':  "(",
	'>':  ")",
	'*':  "x",
	'?':  "",
	'"':  "'",
	'|':  "_",
	'#':  "@",
}

// CleanFileName replaces characters unsafe in file names with benign
// substitutes. Every rendered file name passes through this exactly once;
// templates may additionally apply it to individual fields via the
// cleanFileName helper.
func CleanFileName(name string) string {
	var builder strings.Builder

	builder.Grow(len(name))

	for _, ch := range name {
		if repl, ok := fileNameReplaceMap[ch]; ok {
			builder.WriteString(repl)
		} else {
			builder.WriteRune(ch)
		}
	}

	return builder.String()
}
