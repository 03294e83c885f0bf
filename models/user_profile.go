package models

// UserProfile defines the structure for matrimony profiles. Phone is the
// identity key across the whole system, not just a contact field.
type UserProfile struct {
	Phone            string `dynamodbav:"phone" json:"phone"`
	FullName         string `dynamodbav:"full_name,omitempty" json:"full_name,omitempty"`
	FatherName       string `dynamodbav:"father_name,omitempty" json:"father_name,omitempty"`
	MotherName       string `dynamodbav:"mother_name,omitempty" json:"mother_name,omitempty"`
	SubSurname       string `dynamodbav:"sub_surname,omitempty" json:"sub_surname,omitempty"`
	MotherSubSurname string `dynamodbav:"mother_sub_surname,omitempty" json:"mother_sub_surname,omitempty"`
	Gol              string `dynamodbav:"gol,omitempty" json:"gol,omitempty"`
	Age              int    `dynamodbav:"age,omitempty" json:"age,omitempty"`
	City             string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Taluka           string `dynamodbav:"taluka,omitempty" json:"taluka,omitempty"`
	District         string `dynamodbav:"district,omitempty" json:"district,omitempty"`
	Education        string `dynamodbav:"education,omitempty" json:"education,omitempty"`
	Occupation       string `dynamodbav:"occupation,omitempty" json:"occupation,omitempty"`
	BirthDate        string `dynamodbav:"birth_date,omitempty" json:"birth_date,omitempty"`
	Gender           string `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	KundaliAvailable bool   `dynamodbav:"kundali_available,omitempty" json:"kundali_available,omitempty"`
	AvatarURL        string `dynamodbav:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt        string `dynamodbav:"created_at,omitempty" json:"created_at,omitempty"`
}

// IsComplete reports whether every field the matrimony browser requires is
// filled in. Incomplete profiles are hidden from browsing but may still
// receive requests they sent earlier.
func (p UserProfile) IsComplete() bool {
	return p.FullName != "" &&
		p.FatherName != "" &&
		p.MotherName != "" &&
		p.SubSurname != "" &&
		p.MotherSubSurname != "" &&
		p.Gol != "" &&
		p.Age > 0 &&
		p.City != "" &&
		p.Taluka != "" &&
		p.District != "" &&
		p.Education != "" &&
		p.Occupation != ""
}

// UserProfilesTable is the DynamoDB table name for matrimony profiles
const UserProfilesTable = "UserProfiles"
