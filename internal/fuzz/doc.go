// Package fuzztests houses Go fuzz harnesses for the re-indentation core and
// the source decoder. They guard against panics and check the properties the
// formatter promises for every input: idempotence, no trailing whitespace,
// non-negative depth and no lost content.
//
// Назначение: гонять произвольные байты через source -> indent.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/indent, internal/source, internal/testkit.

package fuzztests
