package domain

// Account is a storefront account as listed by the back-office.
type Account struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Enable   bool   `json:"enable"`
}

// Brand is a catalog brand row.
type Brand struct {
	BrandID          int64  `json:"brandId"`
	BrandName        string `json:"brandName"`
	BrandDescription string `json:"brandDescription"`
	WebsiteURL       string `json:"websiteUrl"`
	TotalQuantity    int64  `json:"totalQuantity"`
}

// Category is a catalog category row.
type Category struct {
	CategoryID          int64  `json:"categoryId"`
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
	TotalQuantity       int64  `json:"totalQuantity"`
}
