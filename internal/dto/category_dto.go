package dto

// PublicCategoryDTO keeps the field names the public frontend builds its
// category tree from.
type PublicCategoryDTO struct {
	CategoriesID       uint    `json:"CategoriesID"`
	CategoriesName     string  `json:"CategoriesName"`
	ParentCategoriesID *uint   `json:"ParentCategoriesID"`
	CategoriesPDF      *string `json:"CategoriesPDF"`
	Contact            string  `json:"Contact"`
}

type PublicCategoriesResponse struct {
	Categories []*PublicCategoryDTO `json:"categories"`
	Count      int                  `json:"count"`
}

type OrganizationReportRequest struct {
	Order  string `query:"order" validate:"omitempty,oneof=asc desc ASC DESC"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=500"`
	Offset int    `query:"offset" validate:"omitempty,gte=0"`
}

type OrganizationSummaryDTO struct {
	OrgID          uint   `json:"OrgID"`
	OrgName        string `json:"OrgName"`
	OrgDescription string `json:"OrgDescription"`
	StaffCount     int64  `json:"StaffCount"`
}
