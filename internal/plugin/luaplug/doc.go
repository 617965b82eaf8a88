// Package luaplug is the production plugin source: it discovers Lua
// plugins on the filesystem and adapts them into registry descriptors.
//
// A plugin is a directory containing a plugin.json manifest and a main
// Lua script:
//
//	{
//	  "name": "toc-builder",
//	  "version": "1.0.0",
//	  "description": "Inserts a table of contents after generation",
//	  "main": "init.lua",
//	  "dependencies": ["outline-check"],
//	  "hooks": {
//	    "generation.after": "build_toc"
//	  },
//	  "config": {"depth": 2}
//	}
//
// The manifest's hooks map lifecycle events to global Lua functions in
// the main script. The script may also define setup(config), called
// once at initialization with the effective configuration, and
// cleanup(), called on disable, uninstall, and shutdown.
//
// A hook function receives the event arguments bridged to Lua values
// and reports failure either by raising (error("msg")) or by returning
// a table with an "error" field; setting "critical" to true in that
// table halts dispatch of the remaining handlers. Any other return
// value is bridged back to Go as the handler result.
package luaplug
