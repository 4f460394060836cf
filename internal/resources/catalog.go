// ABOUTME: The six entity collections and how each is shown and edited
// ABOUTME: Catalog is the single entry point used by commands and screens

package resources

import (
	"context"
	"strings"
)

// Catalog holds a repository per collection plus their Resource views
type Catalog struct {
	Users      *UserRepository
	Roles      *RoleRepository
	Classes    *ClassRepository
	Professors *ProfessorRepository
	Modules    *ModuleRepository
	Rooms      *RoomRepository

	resources []Resource
}

// NewCatalog wires every collection to client
func NewCatalog(client Client) *Catalog {
	c := &Catalog{
		Users:      NewUserRepository(client),
		Roles:      NewRepository[Role, CreateRoleRequest, UpdateRoleRequest](client, "/roles"),
		Classes:    NewRepository[Class, CreateClassRequest, UpdateClassRequest](client, "/classes"),
		Professors: NewRepository[Professor, CreateProfessorRequest, UpdateProfessorRequest](client, "/professeurs"),
		Modules:    NewRepository[Module, CreateModuleRequest, UpdateModuleRequest](client, "/modules"),
		Rooms:      NewRepository[Room, CreateRoomRequest, UpdateRoomRequest](client, "/salles"),
	}
	c.resources = []Resource{
		c.userResource(),
		c.roleResource(),
		c.classResource(),
		c.professorResource(),
		c.moduleResource(),
		c.roomResource(),
	}
	return c
}

// Resources returns every collection in menu order
func (c *Catalog) Resources() []Resource {
	return c.resources
}

// Lookup finds a collection by name
func (c *Catalog) Lookup(name string) (Resource, bool) {
	for _, r := range c.resources {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

func fullName(prenom, nom string) string {
	return strings.TrimSpace(prenom + " " + nom)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c *Catalog) roleOptions(ctx context.Context) ([]Option, error) {
	roles, err := c.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, Option{Value: itoa(r.ID), Label: r.Nom})
	}
	return opts, nil
}

func staticFields(defs ...Field) func(context.Context) ([]Field, error) {
	return func(context.Context) ([]Field, error) {
		out := make([]Field, len(defs))
		copy(out, defs)
		return out, nil
	}
}

func (c *Catalog) userResource() Resource {
	return &entity[User, CreateUserRequest, UpdateUserRequest]{
		repo:     c.Users.Repository,
		name:     "users",
		title:    "Users",
		singular: "user",
		columns:  []string{"ID", "Username", "Name", "Email", "Role", "Status", "Created"},
		facet:    "role",
		row: func(u User) Row {
			return Row{
				ID:     u.ID,
				Cells:  []string{itoa(u.ID), u.Username, fullName(u.Prenom, u.Nom), u.Email, u.Role, u.Statut, formatDate(u.DateCreation)},
				Status: u.Statut,
				Facet:  u.Role,
				Item:   u,
				search: []string{u.Username, u.Nom, u.Prenom, u.Email},
			}
		},
		fields: func(ctx context.Context) ([]Field, error) {
			roles, err := c.roleOptions(ctx)
			if err != nil {
				return nil, err
			}
			return []Field{
				{Key: "username", Label: "Username", Required: true},
				{Key: "email", Label: "Email", Required: true},
				{Key: "nom", Label: "Last name", Required: true},
				{Key: "prenom", Label: "First name", Required: true},
				{Key: "roleId", Label: "Role", Required: true, Numeric: true, Options: roles},
			}, nil
		},
		values: func(ctx context.Context, u User) (map[string]string, error) {
			roles, err := c.roleOptions(ctx)
			if err != nil {
				return nil, err
			}
			roleID := ""
			for _, r := range roles {
				if r.Label == u.Role {
					roleID = r.Value
					break
				}
			}
			return map[string]string{
				"username": u.Username,
				"email":    u.Email,
				"nom":      u.Nom,
				"prenom":   u.Prenom,
				"roleId":   roleID,
				"statut":   u.Statut,
			}, nil
		},
		create: func(f form) (CreateUserRequest, error) {
			roleID, err := f.ref("roleId")
			return CreateUserRequest{
				Username: f.str("username"),
				Email:    f.str("email"),
				Nom:      f.str("nom"),
				Prenom:   f.str("prenom"),
				RoleID:   roleID,
			}, err
		},
		update: func(id int64, f form) (UpdateUserRequest, error) {
			roleID, err := f.ref("roleId")
			return UpdateUserRequest{
				ID:       id,
				Username: f.str("username"),
				Email:    f.str("email"),
				Nom:      f.str("nom"),
				Prenom:   f.str("prenom"),
				RoleID:   roleID,
				Statut:   f.status(),
			}, err
		},
	}
}

func (c *Catalog) roleResource() Resource {
	return &entity[Role, CreateRoleRequest, UpdateRoleRequest]{
		repo:        c.Roles,
		name:        "roles",
		title:       "Roles",
		singular:    "role",
		columns:     []string{"ID", "Name", "Status", "Created"},
		facet:       "created",
		fixedFacets: []string{DateRecent, DateOlder},
		row: func(r Role) Row {
			return Row{
				ID:     r.ID,
				Cells:  []string{itoa(r.ID), r.Nom, r.Statut, formatDate(r.DateCreation)},
				Status: r.Statut,
				Facet:  recency(r.DateCreation),
				Item:   r,
				search: []string{r.Nom},
			}
		},
		fields: staticFields(Field{Key: "nom", Label: "Name", Required: true}),
		values: func(_ context.Context, r Role) (map[string]string, error) {
			return map[string]string{"nom": r.Nom, "statut": r.Statut}, nil
		},
		create: func(f form) (CreateRoleRequest, error) {
			return CreateRoleRequest{Nom: f.str("nom")}, nil
		},
		update: func(id int64, f form) (UpdateRoleRequest, error) {
			return UpdateRoleRequest{ID: id, Nom: f.str("nom"), Statut: f.status()}, nil
		},
	}
}

func (c *Catalog) classResource() Resource {
	return &entity[Class, CreateClassRequest, UpdateClassRequest]{
		repo:     c.Classes,
		name:     "classes",
		title:    "Classes",
		singular: "class",
		columns:  []string{"ID", "Name", "School year", "Students", "Status", "Created"},
		facet:    "year",
		row: func(cl Class) Row {
			return Row{
				ID:     cl.ID,
				Cells:  []string{itoa(cl.ID), cl.Nom, cl.AnneeScolaire, itoa(cl.Effectif), cl.Statut, formatDate(cl.DateCreation)},
				Status: cl.Statut,
				Facet:  cl.AnneeScolaire,
				Item:   cl,
				search: []string{cl.Nom},
			}
		},
		fields: staticFields(
			Field{Key: "nom", Label: "Name", Required: true},
			Field{Key: "annuerScolaire", Label: "School year", Required: true},
			Field{Key: "nomberEff", Label: "Students", Required: true, Numeric: true},
		),
		values: func(_ context.Context, cl Class) (map[string]string, error) {
			return map[string]string{
				"nom":            cl.Nom,
				"annuerScolaire": cl.AnneeScolaire,
				"nomberEff":      itoa(cl.Effectif),
				"statut":         cl.Statut,
			}, nil
		},
		create: func(f form) (CreateClassRequest, error) {
			n, err := f.number("nomberEff")
			return CreateClassRequest{Nom: f.str("nom"), AnneeScolaire: f.str("annuerScolaire"), Effectif: n}, err
		},
		update: func(id int64, f form) (UpdateClassRequest, error) {
			n, err := f.number("nomberEff")
			return UpdateClassRequest{ID: id, Nom: f.str("nom"), AnneeScolaire: f.str("annuerScolaire"), Effectif: n, Statut: f.status()}, err
		},
	}
}

func (c *Catalog) professorResource() Resource {
	return &entity[Professor, CreateProfessorRequest, UpdateProfessorRequest]{
		repo:     c.Professors,
		name:     "professors",
		title:    "Professors",
		singular: "professor",
		columns:  []string{"ID", "Name", "Email", "Phone", "Type", "Status", "Created"},
		facet:    "type",
		row: func(p Professor) Row {
			kind := deref(p.LibelleTypeProf)
			return Row{
				ID:     p.ID,
				Cells:  []string{itoa(p.ID), fullName(p.Prenom, p.Nom), p.Email, p.NumeroTele, kind, p.Statut, formatDate(p.DateCreation)},
				Status: p.Statut,
				Facet:  kind,
				Item:   p,
				search: []string{p.Nom, p.Prenom, p.Email},
				exact:  []string{p.NumeroTele},
			}
		},
		fields: staticFields(
			Field{Key: "nom", Label: "Last name", Required: true},
			Field{Key: "prenom", Label: "First name", Required: true},
			Field{Key: "email", Label: "Email", Required: true},
			Field{Key: "numeroTele", Label: "Phone", Required: true},
			Field{Key: "idTypeProf", Label: "Professor type", Required: true, Numeric: true, Options: ProfessorTypes},
		),
		values: func(_ context.Context, p Professor) (map[string]string, error) {
			return map[string]string{
				"nom":        p.Nom,
				"prenom":     p.Prenom,
				"email":      p.Email,
				"numeroTele": p.NumeroTele,
				"idTypeProf": itoa(p.IDTypeProf),
				"statut":     p.Statut,
			}, nil
		},
		create: func(f form) (CreateProfessorRequest, error) {
			kind, err := f.ref("idTypeProf")
			return CreateProfessorRequest{
				Nom:        f.str("nom"),
				Prenom:     f.str("prenom"),
				Email:      f.str("email"),
				NumeroTele: f.str("numeroTele"),
				IDTypeProf: kind,
			}, err
		},
		update: func(id int64, f form) (UpdateProfessorRequest, error) {
			kind, err := f.ref("idTypeProf")
			return UpdateProfessorRequest{
				ID:         id,
				Nom:        f.str("nom"),
				Prenom:     f.str("prenom"),
				Email:      f.str("email"),
				NumeroTele: f.str("numeroTele"),
				IDTypeProf: kind,
				Statut:     f.status(),
			}, err
		},
	}
}

func (c *Catalog) moduleResource() Resource {
	return &entity[Module, CreateModuleRequest, UpdateModuleRequest]{
		repo:     c.Modules,
		name:     "modules",
		title:    "Modules",
		singular: "module",
		columns:  []string{"ID", "Name", "Status", "Created"},
		row: func(m Module) Row {
			return Row{
				ID:     m.ID,
				Cells:  []string{itoa(m.ID), m.Nom, m.Statut, formatDate(m.DateCreation)},
				Status: m.Statut,
				Item:   m,
				search: []string{m.Nom},
			}
		},
		fields: staticFields(Field{Key: "nom", Label: "Name", Required: true}),
		values: func(_ context.Context, m Module) (map[string]string, error) {
			return map[string]string{"nom": m.Nom, "statut": m.Statut}, nil
		},
		create: func(f form) (CreateModuleRequest, error) {
			return CreateModuleRequest{Nom: f.str("nom")}, nil
		},
		update: func(id int64, f form) (UpdateModuleRequest, error) {
			return UpdateModuleRequest{ID: id, Nom: f.str("nom"), Statut: f.status()}, nil
		},
	}
}

func (c *Catalog) roomResource() Resource {
	return &entity[Room, CreateRoomRequest, UpdateRoomRequest]{
		repo:     c.Rooms,
		name:     "rooms",
		title:    "Rooms",
		singular: "room",
		columns:  []string{"ID", "Name", "Capacity", "Type", "Status", "Created"},
		facet:    "type",
		row: func(r Room) Row {
			return Row{
				ID:     r.ID,
				Cells:  []string{itoa(r.ID), r.Nom, itoa(r.Capacity), r.LibelleTypeSalle, r.Statut, formatDate(r.DateCreation)},
				Status: r.Statut,
				Facet:  r.LibelleTypeSalle,
				Item:   r,
				search: []string{r.Nom, r.LibelleTypeSalle},
			}
		},
		fields: staticFields(
			Field{Key: "nom", Label: "Name", Required: true},
			Field{Key: "maxEffective", Label: "Capacity", Required: true, Numeric: true},
			Field{Key: "idTypeSalle", Label: "Room type", Required: true, Numeric: true, Options: RoomTypes},
		),
		values: func(_ context.Context, r Room) (map[string]string, error) {
			return map[string]string{
				"nom":          r.Nom,
				"maxEffective": itoa(r.Capacity),
				"idTypeSalle":  itoa(r.IDTypeSalle),
				"statut":       r.Statut,
			}, nil
		},
		create: func(f form) (CreateRoomRequest, error) {
			n, err := f.number("maxEffective")
			if err != nil {
				return CreateRoomRequest{}, err
			}
			kind, err := f.ref("idTypeSalle")
			return CreateRoomRequest{Nom: f.str("nom"), Capacity: n, IDTypeSalle: kind}, err
		},
		update: func(id int64, f form) (UpdateRoomRequest, error) {
			n, err := f.number("maxEffective")
			if err != nil {
				return UpdateRoomRequest{}, err
			}
			kind, err := f.ref("idTypeSalle")
			return UpdateRoomRequest{ID: id, Nom: f.str("nom"), Capacity: n, IDTypeSalle: kind, Statut: f.status()}, err
		},
	}
}
