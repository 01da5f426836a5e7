package dto

type CreateCategoryInput struct {
	Scope Scope
	Name  string
}

type RenameCategoryInput struct {
	Scope Scope
	ID    string
	Name  string
}

type MoveCategoryInput struct {
	Scope     Scope
	ID        string
	Direction Direction
}
