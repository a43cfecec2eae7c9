package mysql

// id=LAST_INSERT_ID(id) makes LastInsertId return the existing row on update.
const upsertPlaceSQL = `
INSERT INTO places
  (external_id, name, state, description)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id          = LAST_INSERT_ID(id),
  name        = VALUES(name),
  state       = VALUES(state),
  description = VALUES(description),
  updated_at  = CURRENT_TIMESTAMP
`

const deleteAttractionsSQL = `DELETE FROM attractions WHERE place_id = ?`

const insertAttractionsPrefix = "INSERT INTO attractions\n  (place_id, external_id, name, description, position)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Destination names match case- and accent-insensitively via the table collation.
const attractionsByPlaceSQL = `
SELECT a.name
FROM attractions a
JOIN places p ON p.id = a.place_id
WHERE p.name = ?
ORDER BY p.id, a.position
LIMIT ?
`
