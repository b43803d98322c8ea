package dto

type CreateCustomerInput struct {
	MerchantID string
	Name       string
	Phone      *string
}

type UpdateCustomerInput struct {
	ID         string
	MerchantID string
	Name       string
	Phone      *string
	IsActive   bool
}
