// Package http provides net/http adapters for the engine.
//
// The admin API mounts under /admin/api:
//   - Content types: /content-types, /content-types/{id}
//   - Field edits: /content-types/{id}/fields, /content-types/{id}/fields/{fieldId},
//     /content-types/{id}/fields/move
//   - Derived forms and schemas: /content-types/{id}/form, /content-types/{id}/schema
//   - Records: /content-types/{id}/records, /records/{id}
//   - Menus: /menus, /menus/tree, /menus/{id}, /menus/{id}/move
//   - Endpoints: /endpoints, /openapi.json
//   - Users: /users, /users/{id}
//   - Settings: /settings, /settings/api-key
//
// The public API serves the generated endpoint descriptors, GET /api/{slug}
// by default, plus /api/openapi.json.
package http
