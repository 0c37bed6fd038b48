package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeMatch 模糊匹配方式
type likeMatch int

const (
	likeContains likeMatch = iota
	likePrefix
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dialectOf 获取数据库方言名称，默认按 sqlite 处理
func dialectOf(db *gorm.DB) string {
	if db == nil || db.Config == nil || db.Dialector == nil {
		return "sqlite"
	}
	if name := strings.ToLower(strings.TrimSpace(db.Dialector.Name())); name != "" {
		return name
	}
	return "sqlite"
}

// likeOperator sqlite 的 LIKE 对 ASCII 不区分大小写，postgres 需要 ILIKE
func likeOperator(dialect string) string {
	switch dialect {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// likePattern 转义用户输入中的通配符后生成匹配模式
func likePattern(term string, match likeMatch) string {
	escaped := likeEscaper.Replace(term)
	if match == likePrefix {
		return escaped + "%"
	}
	return "%" + escaped + "%"
}

// likeClause 构建多列 OR 的模糊匹配条件与参数
func likeClause(dialect, term string, match likeMatch, columns ...string) (string, []interface{}) {
	operator := likeOperator(dialect)
	pattern := likePattern(term, match)
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, column+" "+operator+` ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return strings.Join(parts, " OR "), args
}

// whereLike 追加模糊搜索条件，搜索词为空时原样返回
func whereLike(query *gorm.DB, term string, match likeMatch, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if query == nil || term == "" {
		return query
	}
	condition, args := likeClause(dialectOf(query), term, match, columns...)
	if condition == "" {
		return query
	}
	return query.Where(condition, args...)
}
