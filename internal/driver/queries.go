package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Run(uuid);",
	"CREATE INDEX ON :Block(uuid);",
	"CREATE INDEX ON :Observation(uuid);",
	"CREATE INDEX ON :File(path);",
	"CREATE INDEX ON :Conflict(run_id);",
}

const (
	SaveRunQuery = `
		MERGE (r:Run {uuid: $uuid})
		SET r.created_at = $created_at,
			r.success = $success,
			r.observations = $observations,
			r.clusters = $clusters,
			r.blocks = $blocks,
			r.files = $files
		RETURN r.uuid AS uuid
	`

	SaveBlockQuery = `
		MATCH (r:Run {uuid: $run_id})
		MERGE (b:Block {uuid: $uuid})
		SET b.content = $content,
			b.confidence = $confidence,
			b.category = $category
		MERGE (r)-[:PRODUCED]->(b)
		WITH b
		UNWIND $observation_ids AS oid
		MERGE (o:Observation {uuid: oid})
		MERGE (b)-[:MERGED_FROM]->(o)
		RETURN DISTINCT b.uuid AS uuid
	`

	SaveFileQuery = `
		MATCH (r:Run {uuid: $run_id})
		MERGE (f:File {run_id: $run_id, path: $path})
		SET f.file_type = $file_type,
			f.size_bytes = $size_bytes
		MERGE (r)-[:EMITTED]->(f)
		WITH f
		UNWIND $block_ids AS bid
		MATCH (b:Block {uuid: bid})
		MERGE (f)-[:DERIVED_FROM]->(b)
		RETURN DISTINCT f.path AS path
	`

	SaveConflictQuery = `
		MATCH (r:Run {uuid: $run_id})
		CREATE (c:Conflict {
			run_id: $run_id,
			seq: $seq,
			path: $path,
			kind: $kind,
			resolution: $resolution,
			block_id: $block_id,
			detail: $detail
		})
		MERGE (r)-[:RECORDED]->(c)
		RETURN c.seq AS seq
	`

	GetRunFilesQuery = `
		MATCH (r:Run {uuid: $run_id})-[:EMITTED]->(f:File)
		OPTIONAL MATCH (f)-[:DERIVED_FROM]->(b:Block)
		RETURN f.path AS path, collect(b.uuid) AS block_ids
		ORDER BY path
	`
)
