// Package core provides the business logic of the person service.
//
// It has no HTTP or SQL dependencies: storage is reached through the [Store]
// interface and the web layer talks to [Service]. Everything here can be
// exercised by tests with an in-memory store.
//
// # Persons and colors
//
// A [Person] carries a first name, last name, address and a favourite
// [Color]. Colors are a closed enumeration with German canonical names
// (blau, grün, violett, rot, gelb, türkis, weiß) and stable numeric ids
// 1..7. [ParseColor] accepts the canonical name, ASCII spellings, English
// aliases and the numeric id.
//
// Persons are unique by their [BusinessKey] (first name, last name,
// address). Creating a second person with the same key fails with
// [ErrAlreadyExists].
//
// # CSV import
//
// [Service.ImportCSV] reads a CSV stream with the header
// firstName,lastName,address,color. Each line is parsed and validated on its
// own; invalid lines are skipped and reported in the [ImportResult], valid
// lines are persisted. The flow is:
//
//  1. The stream is wrapped to drop a UTF-8 BOM and replace invalid UTF-8
//  2. The first non-blank record is recognised as header (any column order)
//  3. Every record is turned into a [PersonCreateModel] or a skip reason
//  4. Valid candidates go through the same path as [Service.CreatePerson]
//
// # Error Handling
//
// Domain failures are sentinel errors ([ErrNotFound], [ErrAlreadyExists],
// [ErrInvalidInput], [ErrInvalidColor], [ErrTooManyImports]) wrapped with
// context and matched with errors.Is. [MapError] turns any error into a
// [UserMessage] with a support code:
//
//   - PER001-PER002: person lookups and duplicates
//   - VAL001-VAL002: invalid colors and field validation
//   - REQ001, FILE001: malformed requests and uploads
//   - IMP001: import capacity exhausted
//   - DB001-DB006: infrastructure errors matched by message pattern
package core
