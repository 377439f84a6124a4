package domain

// Account is an identity-service login with its traits.
type Account struct {
	Subject   SubjectID
	Email     string
	Password  string
	FirstName string
	LastName  string
	ProfileID ProfileID
}
