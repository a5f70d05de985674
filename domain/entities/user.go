package entities

// User is a generated account holder
type User struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Company      string `json:"company"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zipcode      string `json:"zipcode"`
	Country      string `json:"country"`
	MobileNumber string `json:"mobileNumber"`
}

// FullName joins first and last name
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AccountForm builds the createAccount payload for this user
func (u User) AccountForm() map[string]any {
	return map[string]any{
		"name":          u.FirstName,
		"email":         u.Email,
		"password":      u.Password,
		"title":         "Mr",
		"birth_date":    "1",
		"birth_month":   "January",
		"birth_year":    "1990",
		"firstname":     u.FirstName,
		"lastname":      u.LastName,
		"company":       u.Company,
		"address1":      u.Address1,
		"address2":      u.Address2,
		"country":       u.Country,
		"zipcode":       u.Zipcode,
		"state":         u.State,
		"city":          u.City,
		"mobile_number": u.MobileNumber,
	}
}

// Credentials is an email/password pair
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
