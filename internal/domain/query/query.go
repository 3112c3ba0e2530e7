package query

import "strings"

// Query описывает SQL-выражение с параметрами, которые передаются драйверу отдельно.
type Query struct {
	SQL    string
	Params []any
}

// New собирает запрос из текста и параметров.
func New(sql string, params ...any) Query {
	return Query{SQL: sql, Params: params}
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains оборачивает подстроку для поиска через LIKE. Символы % и _
// в подстроке экранируются и сравниваются буквально.
func Contains(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}
