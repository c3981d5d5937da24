package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/api/responses"
	"github.com/campuseats/campuseats-backend/api/validators"
	"github.com/campuseats/campuseats-backend/internal/catalog"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/types"
)

type createFoodItemRequest struct {
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=2000"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	IsAvailable     *bool           `json:"is_available,omitempty"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	PreparationTime *int            `json:"preparation_time,omitempty" validate:"omitempty,min=0"`
}

type updateFoodItemRequest struct {
	// A literal null clears the category; absence leaves it untouched.
	CategoryID      types.NullableUUID `json:"category_id"`
	Name            *string            `json:"name,omitempty" validate:"omitempty,max=200"`
	Description     *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           *decimal.Decimal   `json:"price,omitempty"`
	IsAvailable     *bool              `json:"is_available,omitempty"`
	IsVegetarian    *bool              `json:"is_vegetarian,omitempty"`
	IsVegan         *bool              `json:"is_vegan,omitempty"`
	PreparationTime *int               `json:"preparation_time,omitempty" validate:"omitempty,min=0"`
}

func VendorMenuList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListOwnItems(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func VendorMenuCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createFoodItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateItem(r.Context(), vendorID, catalog.CreateFoodItemInput{
			CategoryID:      body.CategoryID,
			Name:            body.Name,
			Description:     body.Description,
			Price:           body.Price,
			IsAvailable:     body.IsAvailable,
			IsVegetarian:    body.IsVegetarian,
			IsVegan:         body.IsVegan,
			PreparationTime: body.PreparationTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func VendorMenuUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateFoodItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateFoodItemInput{
			Name:            body.Name,
			Description:     body.Description,
			Price:           body.Price,
			IsAvailable:     body.IsAvailable,
			IsVegetarian:    body.IsVegetarian,
			IsVegan:         body.IsVegan,
			PreparationTime: body.PreparationTime,
		}
		if body.CategoryID.Valid {
			if body.CategoryID.Value == nil {
				input.ClearCategory = true
			} else {
				input.CategoryID = body.CategoryID.Value
			}
		}

		dto, err := svc.UpdateItem(r.Context(), vendorID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func VendorMenuDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), vendorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
