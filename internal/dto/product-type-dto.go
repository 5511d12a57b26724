package dto

type CreateProductTypeDTO struct {
	Name string `json:"name" validate:"required,max=120"`
}

type UpdateProductTypeDTO struct {
	Name string `json:"name" validate:"required,max=120"`
}
