package utils

// ClaimStrings flattens a decoded JSON claim list into strings. Objects are
// read through key, so {"authority": "ROLE_ADMIN"} yields "ROLE_ADMIN" when
// key is "authority". Other values are skipped.
func ClaimStrings(slice []any, key string) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		switch t := v.(type) {
		case string:
			stringSlice = append(stringSlice, t)
		case map[string]any:
			if s, ok := t[key].(string); ok {
				stringSlice = append(stringSlice, s)
			}
		}
	}
	return stringSlice
}
