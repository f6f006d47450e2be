// Package validator provides declarative validation rules that collect every
// failure instead of stopping at the first one.
//
// A Rule pairs a Check function with the ValidationError to report when the
// check fails. Apply runs a list of rules and returns ValidationErrors (which
// implements error) or nil:
//
//	err := validator.Apply(
//	    validator.RangeNum("size", opts.Size, 128, 4096),
//	    validator.HexColor("color", opts.Color),
//	    validator.InList("errorCorrection", opts.Level, []string{"L", "M", "Q", "H"}),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, f := range verrs.Fields() {
//	        fmt.Println(f, verrs.Get(f))
//	    }
//	}
//
// Every error carries a TranslationKey and TranslationValues so responses can
// be localized; Message holds a readable English default.
package validator
