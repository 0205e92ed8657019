package errors

const (
	AllFieldsRequired      = "All fields are required"
	UserAlreadyExists      = "User already exists"
	InvalidCredentials     = "Invalid email or password"
	Unauthorized           = "Unauthorized"
	Forbidden              = "Access denied"
	VendorRoleRequired     = "Access denied. Vendor role required."
	AdminRoleRequired      = "Access denied. Admin role required."
	UserNotFound           = "User not found"
	ListingNotFound        = "Listing not found"
	ComboNotFound          = "Combo not found"
	VendorNotFound         = "Vendor not found"
	ListingAlreadySaved    = "Listing already saved"
	RejectionReasonMissing = "Rejection reason is required"
	InvalidRequestFormat   = "Invalid request format"
	InternalServerError    = "Internal server error"
	FileIDRequired         = "File ID is required"
	NoFileUploaded         = "No file uploaded"
)
