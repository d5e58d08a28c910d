package entity

type Category struct {
	Id       uint
	Name     string
	ParentId *uint
	Pdf      *string
	Contacts []string
}

type OrganizationSummary struct {
	Id           uint
	Name         string
	Description  string
	OfficerCount int64
}
