// Package config loads contract declarations and maps them to test configs.
//
// A config file is a YAML (or JSON) list of declarations:
//
//	- name: get widget
//	  request:
//	    method: GET
//	    endpoints: [/widgets/1, /widgets/2]
//	  response:
//	    code: 200
//	    type: Widget
//	    bodyPath: ./widget.json
//
// Each declaration is validated, its body files are read, and it is expanded
// into one TestConfig per endpoint:
//
//	raws, err := config.LoadFiles(paths)
//	if err != nil {
//	    return err
//	}
//	contracts, err := config.NewMapper().MapContracts(ctx, raws, config.ModeTest)
//
// Mapping runs in either ModeTest or ModeServe. Serve mode prefers the
// serveEndpoint and serveBody variants of a declaration and includes
// declarations marked serveOnly, which test mode skips.
//
// All problems found across all declarations are reported together in a
// single *ValidationError.
package config
