package domain

import (
	"errors"
)

var (
	MessageSuccessGetTags   = "success get tags"
	MessageSuccessCreateTag = "tag created successfully"
	MessageSuccessRenameTag = "tag renamed successfully"
	MessageSuccessDeleteTag = "tag deleted successfully"

	MessageFailedGetTags   = "failed to get tags"
	MessageFailedCreateTag = "failed to create tag"
	MessageFailedRenameTag = "failed to rename tag"
	MessageFailedDeleteTag = "failed to delete tag"

	ErrTagNotFound           = errors.New("tag not found")
	ErrTagExists             = errors.New("tag with this name already exists")
	ErrUnauthorizedTagAccess = errors.New("unauthorized access to tag")
)

type (
	TagRequest struct {
		Name string `json:"name" validate:"required,max=50"`
	}

	TagResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		RecipeCount int64  `json:"recipe_count"`
	}
)
