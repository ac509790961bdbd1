package config

// Specification of requested output type.
// ENUM(xhtml, bundle)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtXhtml:
		return ".xhtml"
	case OutputFmtBundle:
		return ".zip"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Bundled reports whether output frames are collected into a single zip
// archive instead of a directory of files.
func (o OutputFmt) Bundled() bool {
	return o == OutputFmtBundle
}
