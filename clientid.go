package mqtt5

// ValidClientID reports whether id satisfies the portable ClientID
// constraints a server is required to accept: 1 to MaxClientIDLength
// characters drawn from the MQTT-5-recommended alphabet of uppercase and
// lowercase ASCII letters and digits. An empty ClientID is legal on the wire
// (it asks the server to assign one) but is not a "valid" client-supplied ID
// by this check; callers that need to allow the empty form check for it
// separately.
func ValidClientID(id string) bool {
	if len(id) < 1 || len(id) > MaxClientIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
