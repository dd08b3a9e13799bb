package forms

var (
	BloodGroups     = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	DonatableOrgans = []string{"Heart", "Lungs", "Liver", "Kidneys", "Pancreas", "Intestines", "Corneas", "Skin", "Bone", "Heart Valves"}
	RequiredOrgans  = []string{"Heart", "Lungs", "Liver", "Kidney", "Pancreas", "Intestines", "Corneas"}
	UrgencyLevels   = []string{"critical", "high", "medium"}
	SelfRoles       = []string{"donor", "hospital"}
)

type DonorForm struct {
	FullName    string   `json:"fullName" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone" validate:"required"`
	DateOfBirth string   `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	BloodGroup  string   `json:"bloodGroup" validate:"required"`
	Organs      []string `json:"organs" validate:"min=1"`
	Consent     bool     `json:"consent" validate:"consent"`
}

type RecipientForm struct {
	PatientName    string `json:"patientName" validate:"required"`
	Age            string `json:"age" validate:"required,numeric"`
	BloodGroup     string `json:"bloodGroup" validate:"required"`
	OrganRequired  string `json:"organRequired" validate:"required"`
	UrgencyLevel   string `json:"urgencyLevel" validate:"required"`
	HospitalName   string `json:"hospitalName" validate:"required"`
	DoctorName     string `json:"doctorName" validate:"required"`
	ContactNumber  string `json:"contactNumber" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	MedicalHistory string `json:"medicalHistory" validate:"required"`
}

type EventForm struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description"`
}

type PostForm struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type RegistrationForm struct {
	Name            string `json:"name" validate:"required"`
	Age             string `json:"age" validate:"omitempty,numeric"`
	Mobile          string `json:"mobile" validate:"required,mobile"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	Role            string `json:"role" validate:"required"`
}

func DonorDefinition(accept AcceptFunc) *Definition {
	return &Definition{
		Kind: KindDonor,
		Fields: []Field{
			{Name: "fullName"},
			{Name: "email"},
			{Name: "phone"},
			{Name: "dateOfBirth"},
			{Name: "bloodGroup", Options: BloodGroups},
			{Name: "organs", Type: FieldSet, Options: DonatableOrgans},
			{Name: "consent", Type: FieldBool},
		},
		Target: func() any { return &DonorForm{} },
		Success: Message{
			Title:       "Registration Submitted",
			Description: "Thank you for registering as an organ donor. Your information has been securely saved.",
		},
		ResetOnSuccess: true,
		Accept:         accept,
	}
}

func RecipientDefinition(accept AcceptFunc) *Definition {
	return &Definition{
		Kind: KindRecipient,
		Fields: []Field{
			{Name: "patientName"},
			{Name: "age"},
			{Name: "bloodGroup", Options: BloodGroups},
			{Name: "organRequired", Options: RequiredOrgans},
			{Name: "urgencyLevel", Options: UrgencyLevels},
			{Name: "hospitalName"},
			{Name: "doctorName"},
			{Name: "contactNumber"},
			{Name: "email"},
			{Name: "medicalHistory"},
		},
		Target: func() any { return &RecipientForm{} },
		Success: Message{
			Title:       "Requirement Posted Successfully",
			Description: "Your organ requirement has been submitted.",
		},
		Accept: accept,
	}
}

func EventDefinition(accept AcceptFunc) *Definition {
	return &Definition{
		Kind: KindEvent,
		Fields: []Field{
			{Name: "title"},
			{Name: "date"},
			{Name: "time"},
			{Name: "location"},
			{Name: "description"},
		},
		Target: func() any { return &EventForm{} },
		Success: Message{
			Title:       "Event Created!",
			Description: "Your event has been added to the community calendar.",
		},
		ResetOnSuccess: true,
		ClosePanel:     "event-form",
		Accept:         accept,
	}
}

func PostDefinition(accept AcceptFunc) *Definition {
	return &Definition{
		Kind:   KindPost,
		Fields: []Field{{Name: "content"}},
		Target: func() any { return &PostForm{} },
		Success: Message{
			Title:       "Post Shared!",
			Description: "Your post has been shared with the community.",
		},
		ResetOnSuccess: true,
		ClosePanel:     "post-form",
		Accept:         accept,
	}
}

func RegistrationDefinition() *Definition {
	return &Definition{
		Kind: KindRegistration,
		Fields: []Field{
			{Name: "name"},
			{Name: "age"},
			{Name: "mobile"},
			{Name: "email"},
			{Name: "password"},
			{Name: "confirm_password"},
			{Name: "role", Options: SelfRoles, Default: "donor"},
		},
		Target: func() any { return &RegistrationForm{} },
		Success: Message{
			Title:       "Success!",
			Description: "Your account has been created successfully.",
		},
		ResetOnSuccess: true,
	}
}
