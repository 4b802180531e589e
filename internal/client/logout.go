package client

// Logout forgets the signed-in identity.
func Logout() error {
	return RemoveSession()
}
