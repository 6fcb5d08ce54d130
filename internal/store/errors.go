package store

import "errors"

// ErrNotFound est renvoyé quand la ressource demandée n'existe pas.
// Les handlers le traduisent en 404 (ou en anomalie serveur pour le webhook).
var ErrNotFound = errors.New("resource not found")
