package dto

// FormErrors carries the markers of a re-displayed form.
// Fields maps a form field name to the failed rule.
type FormErrors struct {
	Markers []string          `json:"markers,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Add appends a form-level marker
func (e *FormErrors) Add(marker string) {
	e.Markers = append(e.Markers, marker)
}

// Has reports whether marker was added
func (e FormErrors) Has(marker string) bool {
	for _, m := range e.Markers {
		if m == marker {
			return true
		}
	}
	return false
}

// Empty reports whether the form has no errors at all
func (e FormErrors) Empty() bool {
	return len(e.Markers) == 0 && len(e.Fields) == 0
}

// HomeView is the model of the home page
type HomeView struct {
	User *UserDTO `json:"user"`
}

// LoginView is the model of the login page
type LoginView struct {
	Error  bool `json:"error"`
	Logout bool `json:"logout"`
}

// RegisterForm echoes registration input back; the password is never echoed.
type RegisterForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterView is the model of the registration page
type RegisterView struct {
	Form   RegisterForm `json:"form"`
	Role   RoleDTO      `json:"role"`
	Errors FormErrors   `json:"errors"`
}

// ClientForm echoes client input back
type ClientForm struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Sex            string `json:"sex"`
	Age            string `json:"age"`
	PassportSeries string `json:"passportSeries"`
	PassportNumber string `json:"passportNumber"`
	Phone          string `json:"phone"`
}

// AddClientView is the model of the add-client page
type AddClientView struct {
	User   *UserDTO   `json:"user"`
	Client ClientForm `json:"client"`
	Errors FormErrors `json:"errors"`
}

// AccountView is the model of the account page.
// UpdatedUser echoes a rejected update.
type AccountView struct {
	User        *UserDTO      `json:"user"`
	UpdatedUser *RegisterForm `json:"updatedUser,omitempty"`
	Errors      FormErrors    `json:"errors"`
}
