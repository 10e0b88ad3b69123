package feed

import "campusfeed/internal/dbmysql"

// Author is the resolved display identity of a post or comment: either the
// anonymous variant or a named user. Resolved once at read time instead of
// re-checking the anonymity flag at every call site.
type Author struct {
	Anonymous bool
	User      *dbmysql.User
}

func ResolveAuthor(isAnonymous bool, user *dbmysql.User) Author {
	if isAnonymous || user == nil {
		return Author{Anonymous: true}
	}
	return Author{User: user}
}

func (a Author) DisplayName() string {
	if a.Anonymous || a.User == nil {
		return "Anonymous"
	}
	return a.User.Handle
}

// Info flattens the variant into the JSON shape the client renders.
func (a Author) Info() AuthorInfo {
	if a.Anonymous || a.User == nil {
		return AuthorInfo{Username: "Anonymous", IsAnonymous: true}
	}
	return AuthorInfo{
		Username:   a.User.Handle,
		Department: a.User.Department,
		Level:      a.User.Level,
		AvatarPath: a.User.AvatarPath,
	}
}

type AuthorInfo struct {
	Username    string  `json:"username"`
	Department  string  `json:"department,omitempty"`
	Level       string  `json:"level,omitempty"`
	AvatarPath  *string `json:"profile_picture,omitempty"`
	IsAnonymous bool    `json:"is_anonymous,omitempty"`
}
