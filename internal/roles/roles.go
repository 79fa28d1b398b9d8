// Package roles define el registro de roles canónicos y su normalización.
//
// Es la única fuente de verdad para nombres de rol: cualquier valor que venga
// de un token, de la base o de un request pasa por Normalize antes de usarse
// en una comparación.
package roles

import "strings"

// Role es un rol canónico del sistema.
type Role string

const (
	User       Role = "User"
	Student    Role = "Student"
	Registrar  Role = "Registrar"
	Moderator  Role = "Moderator"
	Admin      Role = "Admin"
	SSG        Role = "SSG"
	SuperAdmin Role = "SuperAdmin"
)

// All retorna todos los roles canónicos en orden de rango ascendente.
func All() []Role {
	return []Role{User, Student, Registrar, Moderator, Admin, SSG, SuperAdmin}
}

// aliasMap mapea variantes en minúsculas (incluyendo plurales) al rol canónico.
var aliasMap = map[string]Role{
	"user":        User,
	"users":       User,
	"student":     Student,
	"students":    Student,
	"registrar":   Registrar,
	"registrars":  Registrar,
	"moderator":   Moderator,
	"moderators":  Moderator,
	"admin":       Admin,
	"admins":      Admin,
	"ssg":         SSG,
	"superadmin":  SuperAdmin,
	"superadmins": SuperAdmin,
}

// rankMap define el orden total de roles. Solo se usa para la regla de
// bypass universal: el rol de mayor rango (SuperAdmin) pasa cualquier check.
var rankMap = map[Role]int{
	User:       0,
	Student:    1,
	Registrar:  2,
	Moderator:  3,
	Admin:      4,
	SSG:        5,
	SuperAdmin: 6,
}

// Normalize mapea un string libre (mayúsculas, plurales, alias) a su rol
// canónico. Retorna ok=false si el valor no corresponde a ningún rol conocido:
// valores desconocidos se rechazan, nunca se dejan pasar a una comparación.
func Normalize(input string) (Role, bool) {
	r, ok := aliasMap[strings.ToLower(strings.TrimSpace(input))]
	return r, ok
}

// NormalizeAll normaliza una lista de roles descartando los desconocidos
// y los duplicados. Nunca falla: una lista con basura produce una lista menor.
func NormalizeAll(inputs []string) []Role {
	if len(inputs) == 0 {
		return nil
	}
	seen := make(map[Role]struct{}, len(inputs))
	out := make([]Role, 0, len(inputs))
	for _, in := range inputs {
		r, ok := Normalize(in)
		if !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Rank retorna el rango del rol dentro del orden total.
// Roles desconocidos tienen rango -1 (debajo de todos).
func Rank(r Role) int {
	if v, ok := rankMap[r]; ok {
		return v
	}
	return -1
}

// IsTop indica si el rol es el de mayor rango (bypass universal).
func IsTop(r Role) bool {
	return r == SuperAdmin
}

// Strings convierte una lista de roles canónicos a strings (para claims/DTOs).
func Strings(rs []Role) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
