package model

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Available employee positions.
const (
	PositionJunior = "Junior Software Engineer"
	PositionMiddle = "Software Engineer"
	PositionSenior = "Senior Software Engineer"
	PositionLead   = "Lead Software Engineer"
)

// Positions is the fixed position enumeration, lowest rank first.
var Positions = []string{PositionJunior, PositionMiddle, PositionSenior, PositionLead}

// Employee is one row of the employees table. Salt and Hash are persisted
// with the record but never leave the service (see dto.EmployeeResponse).
type Employee struct {
	ID       int64  `json:"id"       gorm:"primaryKey;autoIncrement:false"`
	Name     string `json:"name"     gorm:"type:varchar(100);not null;index"`
	Surname  string `json:"surname"  gorm:"type:varchar(100);not null;index"`
	Position string `json:"position" gorm:"type:varchar(40);not null"`
	Birthday string `json:"birthday" gorm:"type:varchar(10);not null"`
	Salary   int64  `json:"salary"   gorm:"not null;index"`
	Credentials
}

// TableName pins the table name for both storage drivers.
func (Employee) TableName() string { return "employees" }

// Credentials is the password material stored next to an employee.
type Credentials struct {
	Salt string `json:"salt" gorm:"type:char(32);not null"`
	Hash string `json:"hash" gorm:"type:text;not null"`
}

// Key is the minimal part of an employee that identifies it in the store.
type Key struct {
	ID int64 `json:"id"`
}

// KeyFromEntry projects the key off a full record.
func KeyFromEntry(e Employee) Key {
	return Key{ID: e.ID}
}

// KeyFromQuery parses a route segment into a key. ok is false when the
// segment is not a base-10 integer >= 1.
func KeyFromQuery(param string) (key Key, ok bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 1 {
		return Key{}, false
	}
	return Key{ID: id}, true
}

// NormalizeName returns s with its first letter upper-cased and the rest
// lower-cased: "tEd" -> "Ted".
func NormalizeName(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// NormalizeNames returns a copy of e with canonical name casing.
func NormalizeNames(e Employee) Employee {
	e.Name = NormalizeName(e.Name)
	e.Surname = NormalizeName(e.Surname)
	return e
}
