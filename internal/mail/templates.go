package mail

import "fmt"

// Welcome is sent after a successful registration.
func Welcome(firstName string) (subject, body string) {
	subject = "Welcome to SneakVerse"
	body = fmt.Sprintf("Hi %s,\n\n"+
		"Your SneakVerse account is ready. Sign in any time to pick up your cart and wishlist.\n\n"+
		"See you on the court,\nThe SneakVerse team", firstName)
	return subject, body
}
