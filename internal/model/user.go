package model

// CurrentUser is the signed-in shopper as recorded by the external login flow.
type CurrentUser struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
