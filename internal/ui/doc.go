// Package ui is the terminal front end: it draws a workspace snapshot with
// tcell and turns terminal input into Events for the application loop.
//
// The package never changes the workspace itself. The application decides
// what keys, clicks and menu selections mean.
package ui
