// Package repogen compiles repository method names into parameterized SQL.
//
// A method name such as FindByEmailRegexAndStatusOrderByNameAscAsync is a
// small declarative program: a subject keyword, a predicate list joined by
// And/Or, ordering, result shaping (Distinct, First/Top) and a trailing
// async marker. repogen tokenizes the name against an entity's metadata,
// builds a query plan, applies the entity's tenant policy, and lowers the
// plan into dialect-specific query text with named parameters.
//
// The pipeline is split across subpackages:
//
//   - schema: entity/property metadata and the multi-tenant annotation
//   - compiler/token: the method-name tokenizer
//   - compiler/plan: the query-plan parser
//   - tenant: the tenant-policy resolver
//   - dialect, dialect/sql: dialect table and the query emitter
//   - compiler/load: YAML manifest loading
//   - compiler/gen: the generation pass and the generated-code writer
//
// The root package holds only what the pipeline shares: the optional plan
// cache used by the generation pass.
package repogen
