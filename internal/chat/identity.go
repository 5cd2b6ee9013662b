package chat

// Identity identifies a connected participant by display name. Uniqueness
// is enforced once, at handshake time, against the default room.
type Identity struct {
	Nick string
}
