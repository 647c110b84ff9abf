package main

// @title Product Catalog API
// @version 1.0
// @description In-memory product catalog with list, create and delete operations.
// @BasePath /
