// Package manufacturing holds the persisted records of items, their versioned
// make methods, and the quote-side copies of those methods.
package manufacturing

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&Item{},
		&MakeMethod{},
		&MethodMaterial{},
		&MethodOperation{},
		&MethodOperationStep{},
		&MethodOperationParameter{},
		&MethodOperationTool{},
		&ConfigurationParameterGroup{},
		&ConfigurationParameter{},
		&ConfigurationRule{},
		&Quote{},
		&QuoteLine{},
		&QuoteMakeMethod{},
	}
}
