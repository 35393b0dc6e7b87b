package model

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Client is the recipient of an invoice.
type Client struct {
	gorm.Model
	Party
}

// CompanyClient links a client to a company.
type CompanyClient struct {
	CompanyID uint `gorm:"primaryKey;autoIncrement:false"`
	ClientID  uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (CompanyClient) TableName() string { return "company_clients" }

// ClientWithCompanies is a search result: one client and the names of all
// companies it is associated with.
type ClientWithCompanies struct {
	Client    Client
	Companies []string
}

// ClientSearchField selects the column SearchClients matches against.
type ClientSearchField string

const (
	ClientByName    ClientSearchField = "name"
	ClientByAddress ClientSearchField = "address"
	ClientByCompany ClientSearchField = "company"
)

// CreateClient stores a new client and associates it with companyID in the
// same transaction.
func (s *Store) CreateClient(p Party, companyID uint) (*Client, error) {
	p = p.normalized()
	if err := RequireName("client", p.Name); err != nil {
		return nil, err
	}
	c := &Client{Party: p}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if companyID == 0 {
			return nil
		}
		return tx.Create(&CompanyClient{CompanyID: companyID, ClientID: c.ID}).Error
	})
	if err != nil {
		return nil, storeErr("create client", err)
	}
	return c, nil
}

// LinkClient associates an existing client with another company. Linking
// twice is a no-op.
func (s *Store) LinkClient(companyID, clientID uint) error {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&CompanyClient{CompanyID: companyID, ClientID: clientID}).Error
	if err != nil {
		return storeErr("link client", err)
	}
	return nil
}

// LoadClient loads a client by id.
func (s *Store) LoadClient(id uint) (*Client, error) {
	c := &Client{}
	if err := s.db.First(c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
		}
		return nil, storeErr("load client", err)
	}
	return c, nil
}

type clientCompanyRow struct {
	ID          uint
	Name        string
	Address     string
	Email       string
	Phone       string
	CompanyName sql.NullString
}

func (s *Store) clientsWithCompanies() *gorm.DB {
	return s.db.Table("clients").
		Select("clients.id, clients.name, clients.address, clients.email, clients.phone, companies.name AS company_name").
		Joins("LEFT JOIN company_clients ON company_clients.client_id = clients.id").
		Joins("LEFT JOIN companies ON companies.id = company_clients.company_id AND companies.deleted_at IS NULL").
		Where("clients.deleted_at IS NULL").
		Order("clients.name ASC, clients.id ASC, company_clients.company_id ASC")
}

// SearchClients returns the clients whose field contains value
// (case-sensitive) ordered by client name. Each client appears once, in the
// order it was first encountered, with all of its company names.
func (s *Store) SearchClients(field ClientSearchField, value string) ([]ClientWithCompanies, error) {
	var column string
	switch field {
	case ClientByName:
		column = "clients.name"
	case ClientByAddress:
		column = "clients.address"
	case ClientByCompany:
		column = "companies.name"
	default:
		return nil, invalid(string(field), "unknown client search field")
	}
	var rows []clientCompanyRow
	if err := s.clientsWithCompanies().Where(s.containsExpr(column), value).Scan(&rows).Error; err != nil {
		return nil, storeErr("search clients", err)
	}
	return groupClientRows(rows), nil
}

// ListClients returns all clients with their companies, ordered by name.
func (s *Store) ListClients() ([]ClientWithCompanies, error) {
	var rows []clientCompanyRow
	if err := s.clientsWithCompanies().Scan(&rows).Error; err != nil {
		return nil, storeErr("list clients", err)
	}
	return groupClientRows(rows), nil
}

func groupClientRows(rows []clientCompanyRow) []ClientWithCompanies {
	out := make([]ClientWithCompanies, 0, len(rows))
	index := make(map[uint]int, len(rows))
	for _, r := range rows {
		i, ok := index[r.ID]
		if !ok {
			c := Client{Party: Party{Name: r.Name, Address: r.Address, Email: r.Email, Phone: r.Phone}}
			c.ID = r.ID
			out = append(out, ClientWithCompanies{Client: c, Companies: []string{}})
			i = len(out) - 1
			index[r.ID] = i
		}
		if r.CompanyName.Valid {
			out[i].Companies = append(out[i].Companies, r.CompanyName.String)
		}
	}
	return out
}
