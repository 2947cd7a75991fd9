package journal

// SetPasswordCompare replaces the bcrypt comparison used by Login.
func SetPasswordCompare(a *AuthService, fn func(hash, password []byte) error) {
	a.compare = fn
}
