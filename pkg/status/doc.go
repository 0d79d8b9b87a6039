/*
Package status writes generated artifacts and reports what changed.

	+-------------+       +-------------+
	|  generator  | ----> |   Manager   |
	+-------------+       +------+------+
	                             |
	           +-----------------+----------------+
	           |                 |                |
	     +-----+-----+     +-----+-----+    +-----+-----+
	     |  backup   |     |  atomic   |    |   diff    |
	     | (.backup) |     |  rename   |    | (unified) |
	     +-----------+     +-----------+    +-----------+

🎯 Purpose:
- Writes READMEs, CVs and portfolio pages without partial files
- Classifies each write as new, modified, unchanged or failed by sha256
- Keeps the previous content as <file>.backup on request
- Reports a unified diff against the previous content
- Logs batch progress for bulk runs

🔍 Example:

	mgr := status.New(outDir, logger)
	art, err := mgr.Write(ctx, "README.md", content, status.WriteOptions{
		Kind:   "readme",
		Backup: true,
		Diff:   true,
	})
	fmt.Println(art.Status, art.Diff)
*/
package status
