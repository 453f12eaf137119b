// Go interface for the BC Ministry of Forests SINDEX library (sindex64.dll),
// which calculates site index, tree height, tree age, and years to breast
// height from published growth curves.
//
// The DLL is not redistributable with this module. Use the install subpackage
// (or the -install mode of cmd/sindex) to download and deploy it, then Open()
// the library and query it.
//
// See the README.md for usage info and the list of supported calculations.
package sindex
