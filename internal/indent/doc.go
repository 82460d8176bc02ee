// Package indent re-indents brace/bracket-delimited source text without parsing
// a grammar. Nesting depth is inferred line by line from structural tokens and
// every line's leading whitespace is rewritten to match it.
//
// Назначение: нормализация переводов строк и отступов для C-подобных языков.
// Не делает: лексический разбор, вложенные блочные комментарии, файловый IO.
// Зависимости: msgpack для отпечатка конфигурации, остальное из stdlib.
package indent
