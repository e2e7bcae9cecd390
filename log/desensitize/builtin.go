package desensitize

var (
	// BearerRule Authorization 头中的 Bearer 凭证 (Bearer abc.def -> Bearer ******)
	BearerRule = MustNewContentRule(
		"bearer",
		`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`,
		"${1}******",
	)

	// TokenRule token 字段
	TokenRule = MustNewFieldRule("token", "token", "******")

	// AccessTokenRule access_token 字段
	AccessTokenRule = MustNewFieldRule("access_token", "access_token", "******")

	// PasswordRule password 字段
	PasswordRule = MustNewFieldRule("password", "password", "******")

	// SecretRule secret 字段
	SecretRule = MustNewFieldRule("secret", "secret", "******")
)

// BuiltinRules 返回所有内置规则
func BuiltinRules() []Rule {
	return []Rule{
		BearerRule,
		TokenRule,
		AccessTokenRule,
		PasswordRule,
		SecretRule,
	}
}
