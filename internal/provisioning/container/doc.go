// Package container deploys the analyzer as a container app on top of an
// existing base-resource deployment.
//
// The base deployment is found through the deployment_info section of the
// deployment document. Its storage account name carries the suffix shared by
// every resource of the deployment, so the registry, environment, app and log
// workspace created here are named to match.
//
// All prerequisites are checked before anything is created.
package container
