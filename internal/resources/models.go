// ABOUTME: Entity types exchanged with the administration API
// ABOUTME: Users, roles, classes, professors, modules and rooms with their requests

package resources

// Status values used by every entity
const (
	StatusActive   = "Actif"
	StatusInactive = "Inactif"
)

type User struct {
	ID                int64   `json:"id" yaml:"id"`
	Username          string  `json:"username" yaml:"username"`
	Email             string  `json:"email" yaml:"email"`
	Nom               string  `json:"nom" yaml:"nom"`
	Prenom            string  `json:"prenom" yaml:"prenom"`
	Role              string  `json:"role" yaml:"role"`
	DateCreation      *string `json:"dateCreation" yaml:"dateCreation"`
	DateDesactivation *string `json:"dateDesactivation" yaml:"dateDesactivation"`
	DateModification  *string `json:"dateModification" yaml:"dateModification"`
	Statut            string  `json:"statut" yaml:"statut"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"notblank"`
	Email    string `json:"email" validate:"required,mail"`
	Nom      string `json:"nom" validate:"notblank"`
	Prenom   string `json:"prenom" validate:"notblank"`
	RoleID   int64  `json:"roleId" validate:"required"`
}

type UpdateUserRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"notblank"`
	Email    string `json:"email" validate:"required,mail"`
	Nom      string `json:"nom" validate:"notblank"`
	Prenom   string `json:"prenom" validate:"notblank"`
	RoleID   int64  `json:"roleId" validate:"required"`
	Statut   string `json:"statut" validate:"oneof=Actif Inactif"`
}

type Role struct {
	ID                int64   `json:"id" yaml:"id"`
	Nom               string  `json:"nom" yaml:"nom"`
	DateCreation      *string `json:"dateCreation" yaml:"dateCreation"`
	DateDesactivation *string `json:"dateDesactivation" yaml:"dateDesactivation"`
	DateModification  *string `json:"dateModification" yaml:"dateModification"`
	Statut            string  `json:"statut" yaml:"statut"`
}

type CreateRoleRequest struct {
	Nom string `json:"nom" validate:"notblank"`
}

type UpdateRoleRequest struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom" validate:"notblank"`
	Statut string `json:"statut" validate:"oneof=Actif Inactif"`
}

// Class is a group of students for one school year
type Class struct {
	ID                int64   `json:"id" yaml:"id"`
	Nom               string  `json:"nom" yaml:"nom"`
	AnneeScolaire     string  `json:"annuerScolaire" yaml:"annuerScolaire"`
	Effectif          int     `json:"nomberEff" yaml:"nomberEff"`
	DateCreation      *string `json:"dateCreation" yaml:"dateCreation"`
	DateDesactivation *string `json:"dateDesactivation" yaml:"dateDesactivation"`
	DateModification  *string `json:"dateModification" yaml:"dateModification"`
	Statut            string  `json:"statut" yaml:"statut"`
}

type CreateClassRequest struct {
	Nom           string `json:"nom" validate:"notblank"`
	AnneeScolaire string `json:"annuerScolaire" validate:"notblank"`
	Effectif      int    `json:"nomberEff" validate:"gt=0"`
}

type UpdateClassRequest struct {
	ID            int64  `json:"id"`
	Nom           string `json:"nom" validate:"notblank"`
	AnneeScolaire string `json:"annuerScolaire" validate:"notblank"`
	Effectif      int    `json:"nomberEff" validate:"gt=0"`
	Statut        string `json:"statut" validate:"oneof=Actif Inactif"`
}

type Professor struct {
	ID              int64   `json:"id" yaml:"id"`
	Nom             string  `json:"nom" yaml:"nom"`
	Prenom          string  `json:"prenom" yaml:"prenom"`
	Email           string  `json:"email" yaml:"email"`
	NumeroTele      string  `json:"numeroTele" yaml:"numeroTele"`
	IDTypeProf      int64   `json:"idTypeProf" yaml:"idTypeProf"`
	LibelleTypeProf *string `json:"libelleTypeProf" yaml:"libelleTypeProf"`
	DateCreation    *string `json:"dateCreation" yaml:"dateCreation"`
	Statut          string  `json:"statut" yaml:"statut"`
}

type CreateProfessorRequest struct {
	Nom        string `json:"nom" validate:"notblank,max=50"`
	Prenom     string `json:"prenom" validate:"notblank,max=50"`
	Email      string `json:"email" validate:"required,mail"`
	NumeroTele string `json:"numeroTele" validate:"required,phone"`
	IDTypeProf int64  `json:"idTypeProf" validate:"required"`
}

type UpdateProfessorRequest struct {
	ID         int64  `json:"id"`
	Nom        string `json:"nom" validate:"notblank,max=50"`
	Prenom     string `json:"prenom" validate:"notblank,max=50"`
	Email      string `json:"email" validate:"required,mail"`
	NumeroTele string `json:"numeroTele" validate:"required,phone"`
	IDTypeProf int64  `json:"idTypeProf" validate:"required"`
	Statut     string `json:"statut" validate:"oneof=Actif Inactif"`
}

type Module struct {
	ID           int64   `json:"id" yaml:"id"`
	Nom          string  `json:"nom" yaml:"nom"`
	DateCreation *string `json:"dateCreation" yaml:"dateCreation"`
	Statut       string  `json:"statut" yaml:"statut"`
}

type CreateModuleRequest struct {
	Nom string `json:"nom" validate:"notblank"`
}

type UpdateModuleRequest struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom" validate:"notblank"`
	Statut string `json:"statut" validate:"oneof=Actif Inactif"`
}

// Room is a teaching space ("salle" on the wire)
type Room struct {
	ID               int64   `json:"id" yaml:"id"`
	Nom              string  `json:"nom" yaml:"nom"`
	Capacity         int     `json:"maxEffective" yaml:"maxEffective"`
	IDTypeSalle      int64   `json:"idTypeSalle" yaml:"idTypeSalle"`
	LibelleTypeSalle string  `json:"libelleTypeSalle" yaml:"libelleTypeSalle"`
	DateCreation     *string `json:"dateCreation" yaml:"dateCreation"`
	Statut           string  `json:"statut" yaml:"statut"`
}

type CreateRoomRequest struct {
	Nom         string `json:"nom" validate:"notblank"`
	Capacity    int    `json:"maxEffective" validate:"gt=0"`
	IDTypeSalle int64  `json:"idTypeSalle" validate:"required"`
}

type UpdateRoomRequest struct {
	ID          int64  `json:"id"`
	Nom         string `json:"nom" validate:"notblank"`
	Capacity    int    `json:"maxEffective" validate:"gt=0"`
	IDTypeSalle int64  `json:"idTypeSalle" validate:"required"`
	Statut      string `json:"statut" validate:"oneof=Actif Inactif"`
}

// Option is one choice of a select field
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ProfessorTypes are the professor categories known to the API
var ProfessorTypes = []Option{
	{"1", "Professeur Titulaire"},
	{"2", "Maître de Conférences"},
	{"3", "Professeur Associé"},
	{"4", "Chargé de Cours"},
	{"5", "Assistant"},
	{"6", "Professeur Invité"},
}

// RoomTypes are the room categories known to the API
var RoomTypes = []Option{
	{"1", "Amphithéâtre"},
	{"2", "Laboratoire Informatique"},
	{"3", "Salle de Cours"},
	{"4", "Laboratoire Sciences"},
	{"5", "Salle de Conférence"},
	{"6", "Bibliothèque"},
}

// StatusOptions are the selectable entity statuses
var StatusOptions = []Option{
	{StatusActive, StatusActive},
	{StatusInactive, StatusInactive},
}
