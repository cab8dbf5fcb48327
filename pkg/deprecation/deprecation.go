package deprecation

var (
	// Keys from early configs, before the api base key settled on "api"
	deprecatedKeys = map[string]bool{
		"endpoint": true,
		"api_base": true,
	}
)

// Deprecated returns true if the key is deprecated
func Deprecated(k string) bool {
	if _, ok := deprecatedKeys[k]; ok {
		return deprecatedKeys[k]
	}
	return false
}
