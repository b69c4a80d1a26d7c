package models

// Photo is an image chosen in the form, kept as raw bytes until submit.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CustomerInput is the editable payload sent on create and update.
type CustomerInput struct {
	Name        string
	Email       string
	MobileNo    string
	AddressText string
	Latitude    string
	Longitude   string
	// Image is sent as a file part when set.
	Image *Photo
}
