/*
Package config manages the reporeadme settings file.

	            +-------------+
	            |  Settings   |
	            +------+------+
	                   |
	   +---------+-----+-----+---------+
	   |         |           |         |
	+--+---+ +---+--+    +---+--+  +---+--+
	| JSON | | YAML |    | TOML |  | HCL  |
	+------+ +------+    +------+  +------+

🎯 Purpose:
- Loads and saves settings in any registered format
- Normalizes invalid values back to their defaults
- Supplies credentials from the environment and .env files

🔄 Flow:
1. Manager reads the settings file (or its .backup)
2. The parser for the file extension decodes on top of Defaults()
3. Validate repairs enum and range values
4. ApplyEnv fills missing tokens

🤝 Interfaces:
- Parser: format-specific decode and encode
- Manager: load, save, get/set by key, export, import
*/
package config
