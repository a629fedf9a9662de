package domain

const (
	cassetteExt = ".yaml"
	cassetteSep = "/"
)

// FixturePath returns the cassette path for a decorated function: the
// explicit path when the decorator carries one, else
// "<baseName>/<functionName>.yaml".
func FixturePath(baseName, functionName, explicit string) string {
	if explicit != "" {
		return explicit
	}

	return baseName + cassetteSep + functionName + cassetteExt
}
