// Package repo — доступ к PostgreSQL.
//
// Воркер не хранит состояние между проходами; БД используется только
// для блокировки, исключающей параллельные проходы (RunLock).
package repo
