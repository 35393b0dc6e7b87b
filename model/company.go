package model

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Party holds the contact data shared by companies, clients and the invoice
// snapshot. Empty strings mean "not given".
type Party struct {
	Name    string `gorm:"not null"`
	Address string
	Email   string
	Phone   string
}

// Company is the issuer of an invoice.
type Company struct {
	gorm.Model
	Party
}

// CompanySearchField selects the column FindCompanies matches against.
type CompanySearchField string

const (
	CompanyByName    CompanySearchField = "name"
	CompanyByAddress CompanySearchField = "address"
)

// RequireName rejects an empty or blank name.
func RequireName(what, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Err: ErrValidation, Details: what + " name cannot be empty"}
	}
	return nil
}

func (p Party) normalized() Party {
	return Party{
		Name:    strings.TrimSpace(p.Name),
		Address: strings.TrimSpace(p.Address),
		Email:   strings.TrimSpace(p.Email),
		Phone:   strings.TrimSpace(p.Phone),
	}
}

// CreateCompany stores a new company.
func (s *Store) CreateCompany(p Party) (*Company, error) {
	p = p.normalized()
	if err := RequireName("company", p.Name); err != nil {
		return nil, err
	}
	c := &Company{Party: p}
	if err := s.db.Create(c).Error; err != nil {
		return nil, storeErr("create company", err)
	}
	return c, nil
}

// LoadCompany loads a company by id.
func (s *Store) LoadCompany(id uint) (*Company, error) {
	c := &Company{}
	if err := s.db.First(c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
		}
		return nil, storeErr("load company", err)
	}
	return c, nil
}

// DefaultCompany loads the company configured as default.
func (s *Store) DefaultCompany() (*Company, error) {
	return s.LoadCompany(s.Config.DefaultCompany)
}

// FindCompanies returns all companies whose field contains value
// (case-sensitive), ordered by name.
func (s *Store) FindCompanies(field CompanySearchField, value string) ([]*Company, error) {
	var column string
	switch field {
	case CompanyByName:
		column = "name"
	case CompanyByAddress:
		column = "address"
	default:
		return nil, invalid(string(field), "unknown company search field")
	}
	companies := make([]*Company, 0)
	err := s.db.Where(s.containsExpr(column), value).
		Order("name ASC, id ASC").
		Find(&companies).Error
	if err != nil {
		return nil, storeErr("search companies", err)
	}
	return companies, nil
}

// LoadAllCompanies returns every company ordered by name.
func (s *Store) LoadAllCompanies() ([]*Company, error) {
	var companies = make([]*Company, 0)
	if err := s.db.Order("name ASC, id ASC").Find(&companies).Error; err != nil {
		return nil, storeErr("list companies", err)
	}
	return companies, nil
}
