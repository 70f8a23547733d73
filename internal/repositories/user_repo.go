package repositories

import (
	"context"
	"strings"

	"guanago/internal/airtable"
	"guanago/internal/domain"
	"guanago/internal/domain/models"
)

type UserRepo struct {
	AT    *airtable.Client
	Table string
}

// FindByEmail looks up a user case-insensitively.
func (r UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "requerido"}
	}
	formula := "LOWER({" + userFields.Column("email") + "}) = " + airtable.EscapeFormula(email)
	recs, err := r.AT.List(ctx, table(r.Table, TableUsers), airtable.ListOptions{FilterByFormula: formula, MaxRecords: 1})
	if err != nil {
		return models.User{}, err
	}
	if len(recs) == 0 {
		return models.User{}, domain.NotFoundError{Resource: "usuario"}
	}
	return userFromRecord(recs[0]), nil
}

func userFromRecord(rec airtable.Record) models.User {
	f := rec.Fields
	col := userFields.Column
	role := strings.ToLower(airtable.String(f, col("role")))
	if role == "" {
		role = models.RoleTourist
	}
	return models.User{
		ID:           rec.ID,
		Name:         airtable.String(f, col("name")),
		Email:        strings.ToLower(airtable.String(f, col("email"))),
		Phone:        airtable.String(f, col("phone")),
		Role:         role,
		Status:       strings.ToLower(airtable.String(f, col("status"))),
		GuanaPoints:  airtable.Int64(f, col("guanaPoints")),
		PasswordHash: airtable.String(f, col("passwordHash")),
	}
}
