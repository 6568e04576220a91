package model

import "github.com/go-playground/validator/v10"

// LanguageRule is the validator tag for claim language codes. Codes are
// substituted into the encyclopedia host, so only lowercase letters pass.
const LanguageRule = "alpha,lowercase,min=2,max=12"

var languageValidator = validator.New()

// ValidLanguage reports whether code is a usable language code.
func ValidLanguage(code string) bool {
	return languageValidator.Var(code, "required,"+LanguageRule) == nil
}
