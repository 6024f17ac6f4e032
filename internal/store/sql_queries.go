package store

const (
	remapTimeEntryTagIDs = `
UPDATE time_entries
SET tag_ids = (
    SELECT json_group_array(CASE WHEN value = ? THEN ? ELSE value END)
    FROM json_each(time_entries.tag_ids)
)
WHERE EXISTS (SELECT 1 FROM json_each(time_entries.tag_ids) WHERE value = ?)`

	minEntityID = `SELECT COALESCE(MIN(id), 0) FROM %s`

	getSinceParameter = `SELECT since FROM since_parameters WHERE entity_type = ?`

	setSinceParameter = `
INSERT INTO since_parameters (entity_type, since)
VALUES (?, ?)
ON CONFLICT (entity_type) DO UPDATE SET since = excluded.since`

	resetSinceParameter = `DELETE FROM since_parameters WHERE entity_type = ?`

	resetAllSinceParameters = `DELETE FROM since_parameters`
)
