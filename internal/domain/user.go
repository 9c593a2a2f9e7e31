package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type UserID int

func ParseUserID(raw string) (UserID, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse user id %q: %w", raw, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("parse user id %q: negative id", raw)
	}

	return UserID(id), nil
}

func (id UserID) String() string {
	return strconv.Itoa(int(id))
}

// User is an immutable snapshot of one device user profile. Name may be empty
// and is not unique.
type User struct {
	ID   UserID
	Name string
}

// Label renders the user the way pickers list it, "<id>: <name>".
func (u User) Label() string {
	return fmt.Sprintf("%d: %s", u.ID, u.Name)
}

func IndexOfUser(users []User, id UserID) int {
	for i, user := range users {
		if user.ID == id {
			return i
		}
	}

	return -1
}
