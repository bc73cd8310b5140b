// Package directory keeps the customer list, each customer owning an
// ordered list of named projects, persisted as one JSON document.
//
// Quote history is keyed by project id and lives elsewhere; deleting a
// customer or project here never touches those documents.
package directory

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/ids"
	"github.com/roach88/drapequote/internal/jsonfile"
)

// FileName is the directory document name inside the data directory.
const FileName = "customers.json"

// Customer is a client of the business.
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	TemplatePath string    `json:"template_path"`
	Projects     []Project `json:"projects"`
}

// Project is a named job for a customer. Its id keys the quote history.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerInput holds the fields of a new customer.
type CustomerInput struct {
	Name         string
	Phone        string
	Address      string
	TemplatePath string
}

// CustomerUpdate lists the fields to change in Update. Nil fields are kept.
type CustomerUpdate struct {
	Name         *string
	Phone        *string
	Address      *string
	TemplatePath *string
}

// Directory is the customer repository.
type Directory struct {
	path      string
	gen       ids.Generator
	customers []Customer
}

// Open loads the directory document at path, creating an empty one if it
// does not exist.
func Open(path string, gen ids.Generator) (*Directory, error) {
	if err := jsonfile.Ensure(path, []Customer{}); err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	d := &Directory{path: path, gen: gen}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the backing document path.
func (d *Directory) Path() string { return d.path }

// Reload replaces the in-memory customers with the document's contents.
func (d *Directory) Reload() error {
	var customers []Customer
	if err := jsonfile.Read(d.path, &customers); err != nil {
		if errors.Is(err, jsonfile.ErrNotExist) {
			d.customers = nil
			return nil
		}
		return fmt.Errorf("load directory: %w", err)
	}
	for i := range customers {
		if customers[i].Projects == nil {
			customers[i].Projects = []Project{}
		}
	}
	d.customers = customers
	return nil
}

// Flush writes the in-memory customers to the document.
func (d *Directory) Flush() error {
	customers := d.customers
	if customers == nil {
		customers = []Customer{}
	}
	if err := jsonfile.Write(d.path, customers); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	slog.Debug("directory saved", "path", d.path, "customers", len(customers))
	return nil
}

// Add creates a customer with a generated id and no projects.
func (d *Directory) Add(in CustomerInput) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, errs.Validation("customer name is required")
	}

	cust := Customer{
		ID:           d.gen.NewID(),
		Name:         in.Name,
		Phone:        in.Phone,
		Address:      in.Address,
		TemplatePath: in.TemplatePath,
		Projects:     []Project{},
	}
	d.customers = append(d.customers, cust)
	if err := d.Flush(); err != nil {
		d.customers = d.customers[:len(d.customers)-1]
		return Customer{}, err
	}
	return clone(cust), nil
}

// Update merges the supplied fields into the customer with the given id.
func (d *Directory) Update(id string, upd CustomerUpdate) (Customer, error) {
	idx := d.indexOf(id)
	if idx < 0 {
		return Customer{}, errs.NotFound("customer", id)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return Customer{}, errs.Validation("customer name is required")
	}

	prev := d.customers[idx]
	cust := clone(prev)
	if upd.Name != nil {
		cust.Name = *upd.Name
	}
	if upd.Phone != nil {
		cust.Phone = *upd.Phone
	}
	if upd.Address != nil {
		cust.Address = *upd.Address
	}
	if upd.TemplatePath != nil {
		cust.TemplatePath = *upd.TemplatePath
	}

	d.customers[idx] = cust
	if err := d.Flush(); err != nil {
		d.customers[idx] = prev
		return Customer{}, err
	}
	return clone(cust), nil
}

// Delete removes the customer with the given id.
func (d *Directory) Delete(id string) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return errs.NotFound("customer", id)
	}

	prev := d.customers
	d.customers = append(append([]Customer(nil), prev[:idx]...), prev[idx+1:]...)
	if err := d.Flush(); err != nil {
		d.customers = prev
		return err
	}
	return nil
}

// All returns every customer in insertion order.
func (d *Directory) All() []Customer {
	out := make([]Customer, len(d.customers))
	for i, c := range d.customers {
		out[i] = clone(c)
	}
	return out
}

// Get returns the customer with the given id.
func (d *Directory) Get(id string) (Customer, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return Customer{}, false
	}
	return clone(d.customers[idx]), true
}

// AddProject appends a project to the customer's list.
// It returns a nil project, and writes nothing, when the customer is unknown.
func (d *Directory) AddProject(customerID, name string) (*Project, error) {
	idx := d.indexOf(customerID)
	if idx < 0 {
		return nil, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.Validation("project name is required")
	}

	proj := Project{ID: d.gen.NewID(), Name: name}
	prev := d.customers[idx].Projects
	d.customers[idx].Projects = append(append([]Project{}, prev...), proj)
	if err := d.Flush(); err != nil {
		d.customers[idx].Projects = prev
		return nil, err
	}
	return &proj, nil
}

// UpdateProject renames a project. It returns nil when either the customer
// or the project is unknown.
func (d *Directory) UpdateProject(customerID, projectID, name string) (*Project, error) {
	idx := d.indexOf(customerID)
	if idx < 0 {
		return nil, nil
	}
	projects := d.customers[idx].Projects
	for i := range projects {
		if projects[i].ID != projectID {
			continue
		}
		if strings.TrimSpace(name) == "" {
			return nil, errs.Validation("project name is required")
		}
		prevName := projects[i].Name
		projects[i].Name = name
		if err := d.Flush(); err != nil {
			projects[i].Name = prevName
			return nil, err
		}
		proj := projects[i]
		return &proj, nil
	}
	return nil, nil
}

// DeleteProject removes a project from the customer's list. It reports
// false when the customer is unknown; removing an unknown project from a
// known customer is a no-op that still reports true.
func (d *Directory) DeleteProject(customerID, projectID string) (bool, error) {
	idx := d.indexOf(customerID)
	if idx < 0 {
		return false, nil
	}

	prev := d.customers[idx].Projects
	kept := make([]Project, 0, len(prev))
	for _, p := range prev {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	d.customers[idx].Projects = kept
	if err := d.Flush(); err != nil {
		d.customers[idx].Projects = prev
		return false, err
	}
	return true, nil
}

// Projects returns the customer's projects in order, or nil for an
// unknown customer.
func (d *Directory) Projects(customerID string) []Project {
	idx := d.indexOf(customerID)
	if idx < 0 {
		return nil
	}
	return append([]Project{}, d.customers[idx].Projects...)
}

// FindProject locates a project and its owning customer by project id.
func (d *Directory) FindProject(projectID string) (Customer, Project, bool) {
	for _, c := range d.customers {
		for _, p := range c.Projects {
			if p.ID == projectID {
				return clone(c), p, true
			}
		}
	}
	return Customer{}, Project{}, false
}

func (d *Directory) indexOf(id string) int {
	for i, c := range d.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func clone(c Customer) Customer {
	c.Projects = append([]Project{}, c.Projects...)
	return c
}
