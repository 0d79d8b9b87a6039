/*
Package operation runs README generation over many repositories at once.

	+--------------+     +-----------+     +----------+     +----------+
	|  discovery   | --> |   clone   | --> | analyze  | --> |  readme  |
	| (repo list)  |     | (git)     |     | (cache)  |     | (status) |
	+--------------+     +-----------+     +----------+     +----------+

🎯 Purpose:
- Takes a list of discovered repositories and produces one README per repo
- Records a Result for every repository, including the stage that failed
- Aggregates the results into a Summary for the command line

🔄 Flow:
1. Filter the repository list with doublestar include patterns
2. Clone each repository (shallow) into a temp directory
3. Analyze it, reusing a cached ProjectMetadata when HEAD has not moved
4. Render the README with the configured template
5. Hand the content to the status manager, which writes it atomically

⚡ Concurrency:
The OperationRunner executes repositories one by one or in parallel. In
parallel mode an errgroup bounds the number of repositories in flight. A
failing repository never stops the others, only context cancellation does.

🤝 Interfaces:
- Cloner: source checkouts (discovery.Cloner in production)
- Analyzer: metadata extraction (analyzer.Analyzer in production)
- AnalysisCache: metadata reuse (cache.Cache in production)

🔍 Example:

	op := operation.NewBulkOperation(operation.Options{...})
	err := operation.NewRunner(logger, 4).Run(ctx, op)
	summary := op.Summary()
*/
package operation
