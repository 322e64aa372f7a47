// Package common holds helpers shared by the tool packages.
package common
