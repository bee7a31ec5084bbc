package domain

type Contact struct {
	CustomerID string
	Name       string
	Email      string
	Phone      string
	Address    string
}
