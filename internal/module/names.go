package module

const (
	// Prefix names the family of companion tools, as in MFEKmetadata.
	Prefix = "MFEK"
	// HyphenPrefix is the lowercase alternate convention, as in mfek-metadata.
	HyphenPrefix = "mfek"
)

// Binaries returns the executable names tried for module, in probe order:
// decorated, hyphenated, then the same two with the platform executable
// suffix where the platform needs one.
func Binaries(module string) []string {
	names := []string{Prefix + module, HyphenPrefix + "-" + module}
	if exeSuffix == "" {
		return names
	}
	return append(names, Prefix+module+exeSuffix, HyphenPrefix+"-"+module+exeSuffix)
}
