// Package config loads, merges and persists the deployment document shared by
// the base-resource and container deployments.
//
// The document is a JSON object. Required sections are analysis_settings,
// containers and naming_convention. The deployment_info and
// container_deployment sections are appended by the two deployment runs via
// [Update], which replaces a single top-level key and leaves every other
// section, including unknown ones, untouched. Comments and trailing commas are
// tolerated on read.
//
// Runtime tunables such as settle windows and retry delays come from
// environment variables through [LoadTimeouts].
package config
