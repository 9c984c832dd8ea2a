// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user text into a LIKE/ILIKE pattern matching it as a
// literal substring. Backslash is the default LIKE escape character.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
